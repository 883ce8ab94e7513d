// Package terminal presents a render.Document on a tcell screen and turns key
// presses into skip and quit actions
package terminal
