package main

import "matchup-backend/cmd"

func main() {
	cmd.Run()
}
