package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardClone(t *testing.T) {
	b := &Board{
		ID:   "b1",
		Name: "Team",
		Tasks: []Task{
			{ID: "t1", Title: "one", Status: StatusToDo},
			{ID: "t2", Title: "two", Status: StatusDone},
		},
	}

	c := b.Clone()
	c.Tasks[0].Status = StatusTest
	c.Name = "Other"

	assert.Equal(t, StatusToDo, b.Tasks[0].Status, "clone must not share tasks")
	assert.Equal(t, "Team", b.Name)

	var nilBoard *Board
	assert.Nil(t, nilBoard.Clone())
}

func TestBoardTaskIndex(t *testing.T) {
	b := &Board{Tasks: []Task{{ID: "a"}, {ID: "b"}}}
	assert.Equal(t, 1, b.TaskIndex("b"))
	assert.Equal(t, -1, b.TaskIndex("zzz"))
}

func TestBoardDecodesBackendFields(t *testing.T) {
	payload := `{"_id":"65f0","name":"Platform","tasks":[{"_id":"1","title":"Write docs","status":"To Do"}]}`

	var b Board
	require.NoError(t, json.Unmarshal([]byte(payload), &b))
	assert.Equal(t, "65f0", b.ID)
	assert.Equal(t, "Platform", b.Name)
	require.Len(t, b.Tasks, 1)
	assert.Equal(t, StatusToDo, b.Tasks[0].Status)
}
