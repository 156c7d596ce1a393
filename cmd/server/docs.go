package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           DealDesk Analytics API
// @version         0.1.0
// @description     Student-athlete deal management, analytics, and exports.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
