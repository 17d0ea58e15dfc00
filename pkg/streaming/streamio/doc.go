/*
Package streamio adapts byte streams to the io interfaces.

Writer implements io.Writer, io.StringWriter and io.Closer on top of a
*stream.Stream[byte]. Each write waits until all of its bytes are buffered,
using the stream's asynchronous write with a per-write timeout, so a slow
consumer throttles the producer instead of overrunning the buffer.

Reader implements io.Reader. It blocks until data arrives and reports io.EOF
once the writer has closed and everything has been read.

# Quick Start

	r, w, err := streamio.Pipe(stream.Config[byte]{MaxBufferSize: 4096})
	if err != nil {
		return err
	}

	go func() {
		defer w.Close()
		io.Copy(w, os.Stdin)
	}()

	io.Copy(os.Stdout, r)

# Text

WriteUTF16 accepts UTF-16 code units and writes their UTF-8 encoding, keeping
unpaired surrogates intact.
*/
package streamio
