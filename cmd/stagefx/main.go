// Command stagefx runs the page-transition showcase in the terminal
package main

func main() {
	Execute()
}
