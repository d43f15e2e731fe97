package httpapi

import (
	"net/http"

	"github.com/alexanderramin/rebound/internal/contract"
	"github.com/gin-gonic/gin"
)

func (a *api) createTask(c *gin.Context) {
	var req contract.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.writeError(c, invalidInput("malformed JSON body: "+err.Error()))
		return
	}
	task, err := a.Tasks.Create(c.Request.Context(), userID(c), req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.NewTaskView(task))
}

func (a *api) listTasks(c *gin.Context) {
	date, err := a.dateParam(c, "date")
	if err != nil {
		a.writeError(c, err)
		return
	}
	tasks, err := a.Tasks.ListByDate(c.Request.Context(), userID(c), date)
	if err != nil {
		a.writeError(c, err)
		return
	}
	views := make([]contract.TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, contract.NewTaskView(t))
	}
	c.JSON(http.StatusOK, gin.H{"tasks": views})
}

func (a *api) getTask(c *gin.Context) {
	task, err := a.Tasks.GetByID(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.NewTaskView(task))
}

func (a *api) completeTask(c *gin.Context) {
	var req contract.CompleteTaskRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		a.writeError(c, err)
		return
	}
	task, err := a.Tasks.Complete(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.NewTaskView(task))
}
