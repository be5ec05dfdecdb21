package main

import "cuponera_backend/internal/app"

func main() {
	app.Run()
}
