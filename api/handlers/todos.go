package handlers

import (
	"net/http"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/api/services"
)

// @Summary List to-dos
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Todo
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /todos [get]
func ListTodos(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.ListTodosService(w, r)
	}
}

// @Summary Create a to-do
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.Todo true "To-do"
// @Success 201 {object} models.Todo
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /todos [post]
func CreateTodo(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.CreateTodoService(w, r)
	}
}

// @Summary Update a to-do
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param todo-id path string true "To-do ID"
// @Param body body models.Todo true "To-do"
// @Success 200 {object} models.Todo
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /todos/{todo-id} [put]
func UpdateTodo(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateTodoService(w, r)
	}
}

// @Summary Delete a to-do
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param todo-id path string true "To-do ID"
// @Success 204
// @Failure 400 {object} models.Response
// @Failure 401 {object} models.Response
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /todos/{todo-id} [delete]
func DeleteTodo(svc *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.DeleteTodoService(w, r)
	}
}
