// Command example shows a report travelling from a failing database call to
// the program boundary, where it is logged and rendered with %+v before the
// process exits with a non-zero status.
//
// Usage:
//
//	# Minimal rendering
//	go run ./example 8b50d0c8
//
//	# Colours, sections, span trace and backtrace
//	REPORT_BACKTRACE=1 go run ./example --handler rich 8b50d0c8
//
//	# A panic recovered into a report
//	go run ./example --handler rich --panic 8b50d0c8
//
//	# Print the report counters afterwards
//	go run ./example --handler backtrace --metrics 8b50d0c8
package main

func main() {
	Execute()
}
