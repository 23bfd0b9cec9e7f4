package handler

import "net/http"

// Message is the body returned by the root route.
type Message struct {
	Message string `json:"message"`
}

var helloWorld = Message{Message: "Hello World"}

// HelloHandler serves the root route.
type HelloHandler struct{}

func NewHelloHandler() *HelloHandler { return &HelloHandler{} }

// Hello handles GET /
//
// @Summary  Fixed greeting
// @Tags     root
// @Produce  json
// @Success  200  {object}  handler.Message
// @Router   / [get]
func (h *HelloHandler) Hello(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, helloWorld)
}
