package main

import "smartfreelance_backend/internal/app"

func main() {
	app.Run()
}
