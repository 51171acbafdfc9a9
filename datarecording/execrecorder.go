package datarecording

import (
	"os"
	"strings"
	"sync"
	"time"
)

// ExecInfoTable is the table that describes the run that produced a
// recording.
const ExecInfoTable = "exec_info"

// ExecInfo is one property of a run.
type ExecInfo struct {
	Property string
	Value    string
}

const timeLayout = "2006-01-02 15:04:05.000000000"

// execRecorder records when and how the program ran.
type execRecorder struct {
	once     sync.Once
	recorder DataRecorder
}

func newExecRecorder(recorder DataRecorder) *execRecorder {
	e := &execRecorder{recorder: recorder}

	recorder.CreateTable(ExecInfoTable, ExecInfo{})

	wd, err := os.Getwd()
	if err != nil {
		wd = ""
	}

	e.insert("Start Time", time.Now().Format(timeLayout))
	e.insert("Command", strings.Join(os.Args, " "))
	e.insert("Working Directory", wd)

	return e
}

// End records the end time. Only the first call has an effect.
func (e *execRecorder) End() {
	e.once.Do(func() {
		e.insert("End Time", time.Now().Format(timeLayout))
	})
}

func (e *execRecorder) insert(property, value string) {
	e.recorder.InsertData(ExecInfoTable, ExecInfo{
		Property: property,
		Value:    value,
	})
}
