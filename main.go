package main

import "github.com/salsadigitalauorg/tidepool/cmd"

func main() {
	cmd.Execute()
}
