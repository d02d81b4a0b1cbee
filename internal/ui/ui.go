package ui

import "fmt"

type UI interface {
	UpdateStage(stage string)
	ShowReading(text string)
	Log(msg string)
}

type SilentUI struct{}

func (s SilentUI) UpdateStage(stage string) {}
func (s SilentUI) ShowReading(text string)  {}
func (s SilentUI) Log(msg string)           {}

// ConsoleUI prints readings to stdout; stages and logs are dropped.
type ConsoleUI struct{}

func (c ConsoleUI) UpdateStage(stage string) {}
func (c ConsoleUI) ShowReading(text string)  { fmt.Println(text) }
func (c ConsoleUI) Log(msg string)           {}
