/*
Package scheduling provides the timer sources that drive streamkit components.

  - timer: Scheduler interface with a wall-clock implementation and cron
    schedules built on robfig/cron

Components never call time.AfterFunc or time.NewTicker directly. They take a
timer.Scheduler, so tests can substitute a fake clock and advance it
deterministically:

	sched := timer.System()
	h := sched.Every(20*time.Millisecond, tick)
	defer h.Stop()

	schedule, _ := timer.ParseSchedule("@every 1s")
	timer.OnSchedule(sched, schedule, flush)
*/
package scheduling
