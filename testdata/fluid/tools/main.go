// Command tools is a helper program shipped with fluid.
package main

import "fmt"

// Run is exported but lives in a command.
func Run() {
	fmt.Println("fluid tools")
}

func main() {
	Run()
}
