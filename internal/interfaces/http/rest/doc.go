// Package rest serves the Hi Prompt routes over HTTP.
//
// @title Hi Prompt local shell
// @version 1.0
// @description JSON routes for browsing, publishing and liking prompts through the configured gateway.
// @BasePath /api
// @schemes http
package rest

//go:generate swag init -g doc.go -d ./,./handlers,./response,../../../domain,../../../prompts -o ./docs --outputTypes go
