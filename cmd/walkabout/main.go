package main

import "walkabout/internal/walk"

func main() {
	walk.RunDesktop()
}
