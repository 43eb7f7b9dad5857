package main

import "github.com/meinhoongagan/therapy-booking/cmd"

func main() {
	cmd.Execute()
}
