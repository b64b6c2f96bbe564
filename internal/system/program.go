package system

import (
	"fmt"
	"os"
)

// CheckError is used to check error is nil, if err is not nil,
// it will print error and exit program with code 1.
func CheckError(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// PrintError is used to print error and exit program with code 1.
func PrintError(a ...interface{}) {
	fmt.Println(a...)
	os.Exit(1)
}

// PrintErrorf is used to print error with format and exit program with code 1.
func PrintErrorf(format string, a ...interface{}) {
	fmt.Printf(format, a...)
	os.Exit(1)
}
