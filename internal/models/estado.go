package models

// Estado is the lifecycle state of a pedido.
//
// The lifecycle runs pendiente → fabricando → enviado and ends in either
// entregado or devolucion. Corrections between the three non-terminal
// states are allowed in any direction (the warehouse does move orders
// back when fabric runs out), so the table below is permissive for them.
// The one hard rule is the terminal lock: once a pedido is entregado or
// devolucion its state never changes again.
type Estado string

const (
	EstadoPendiente  Estado = "pendiente"
	EstadoFabricando Estado = "fabricando"
	EstadoEnviado    Estado = "enviado"
	EstadoEntregado  Estado = "entregado"
	EstadoDevolucion Estado = "devolucion"
)

// Estados lists every valid state, in lifecycle order.
func Estados() []Estado {
	return []Estado{
		EstadoPendiente,
		EstadoFabricando,
		EstadoEnviado,
		EstadoEntregado,
		EstadoDevolucion,
	}
}

// IsValid reports whether the state is one of the five known values.
func (e Estado) IsValid() bool {
	switch e {
	case EstadoPendiente, EstadoFabricando, EstadoEnviado, EstadoEntregado, EstadoDevolucion:
		return true
	}
	return false
}

// IsTerminal reports whether the state admits no further transitions.
func (e Estado) IsTerminal() bool {
	return e == EstadoEntregado || e == EstadoDevolucion
}

// transiciones is the single transition table consulted by CanTransition.
// Terminal states map to nothing.
var transiciones = map[Estado][]Estado{
	EstadoPendiente:  {EstadoPendiente, EstadoFabricando, EstadoEnviado, EstadoEntregado, EstadoDevolucion},
	EstadoFabricando: {EstadoPendiente, EstadoFabricando, EstadoEnviado, EstadoEntregado, EstadoDevolucion},
	EstadoEnviado:    {EstadoPendiente, EstadoFabricando, EstadoEnviado, EstadoEntregado, EstadoDevolucion},
	EstadoEntregado:  {},
	EstadoDevolucion: {},
}

// CanTransition reports whether a pedido currently in from may move to
// to. Both states must be valid; from must not be terminal.
func CanTransition(from, to Estado) bool {
	if !to.IsValid() {
		return false
	}
	for _, allowed := range transiciones[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
