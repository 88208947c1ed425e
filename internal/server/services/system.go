package services

// Version is the reported system version.
const Version = "1.0.0"

// Ping returns a static liveness message.
func Ping() string {
	return "Hi! Successful ping!"
}
