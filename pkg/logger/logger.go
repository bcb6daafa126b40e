package logger

import (
	"log"
	"os"
)

var (
	// Info writes to stdout.
	Info *log.Logger

	// Error writes to stderr.
	Error *log.Logger
)

func init() {
	Info = log.New(os.Stdout, "", log.LstdFlags)
	Error = log.New(os.Stderr, "", log.LstdFlags)
}

func Println(v ...interface{}) {
	Info.Println(v...)
}

func Printf(format string, v ...interface{}) {
	Info.Printf(format, v...)
}

func Errorln(v ...interface{}) {
	Error.Println(v...)
}

func Errorf(format string, v ...interface{}) {
	Error.Printf(format, v...)
}

func Fatalf(format string, v ...interface{}) {
	Error.Fatalf(format, v...)
}
