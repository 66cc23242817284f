package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstadoIsValid(t *testing.T) {
	for _, estado := range Estados() {
		assert.True(t, estado.IsValid(), "estado %s", estado)
	}

	assert.False(t, Estado("").IsValid())
	assert.False(t, Estado("cancelado").IsValid())
	assert.False(t, Estado("PENDIENTE").IsValid())
}

func TestEstadoIsTerminal(t *testing.T) {
	assert.True(t, EstadoEntregado.IsTerminal())
	assert.True(t, EstadoDevolucion.IsTerminal())

	assert.False(t, EstadoPendiente.IsTerminal())
	assert.False(t, EstadoFabricando.IsTerminal())
	assert.False(t, EstadoEnviado.IsTerminal())
}

func TestCanTransitionFromNonTerminalStates(t *testing.T) {
	nonTerminal := []Estado{EstadoPendiente, EstadoFabricando, EstadoEnviado}

	// Any known state is reachable from a non-terminal state, including
	// moving backwards and re-setting the same state.
	for _, from := range nonTerminal {
		for _, to := range Estados() {
			assert.True(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionTerminalLock(t *testing.T) {
	for _, from := range []Estado{EstadoEntregado, EstadoDevolucion} {
		for _, to := range Estados() {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionRejectsUnknownTarget(t *testing.T) {
	assert.False(t, CanTransition(EstadoPendiente, Estado("cancelado")))
	assert.False(t, CanTransition(EstadoPendiente, Estado("")))
}
