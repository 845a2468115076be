package main

import (
	"course-monitor/cmd/coursemon/commands"
	"course-monitor/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
