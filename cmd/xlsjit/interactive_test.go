package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaunstanislauslau/xls/jit"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *interactiveModel, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestInteractiveRun(t *testing.T) {
	path := writeFile(t, "adder.ir", adderIR)
	cache := jit.NewCache(nil)
	t.Cleanup(func() { _ = cache.Close() })

	m := newInteractiveModel(path, cache)
	assert.Equal(t, "Loading package...", m.View())

	m.Update(m.loadPackage())
	require.Len(t, m.funcs, 1)
	assert.Contains(t, m.View(), "adder")

	m.Update(key("enter"))
	require.Equal(t, stateInputArgs, m.state)
	require.Len(t, m.inputs, 2)

	typeText(m, "0x3")
	m.Update(key("tab"))
	typeText(m, "0x4")
	assert.Equal(t, "0x3", m.inputs[0].Value())
	assert.Equal(t, "0x4", m.inputs[1].Value())

	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	require.Equal(t, stateShowResult, m.state)
	require.NoError(t, m.err)
	assert.Equal(t, "bits[8]:0x7", m.result)
	assert.Equal(t, 1, cache.Len())

	m.Update(key("enter"))
	assert.Equal(t, stateSelectFunc, m.state)
}

func TestInteractiveBadArgument(t *testing.T) {
	path := writeFile(t, "adder.ir", adderIR)
	cache := jit.NewCache(nil)
	t.Cleanup(func() { _ = cache.Close() })

	m := newInteractiveModel(path, cache)
	m.Update(m.loadPackage())
	m.Update(key("enter"))
	typeText(m, "zz")

	_, cmd := m.Update(key("enter"))
	m.Update(cmd())
	require.Equal(t, stateShowResult, m.state)
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "Error:")

	m.Update(key("esc"))
	assert.Equal(t, stateSelectFunc, m.state)
	assert.NoError(t, m.err)
}

func TestInteractiveLoadError(t *testing.T) {
	path := writeFile(t, "broken.ir", "fn broken(")
	m := newInteractiveModel(path, jit.NewCache(nil))
	m.Update(m.loadPackage())
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "Press q to quit")
}
