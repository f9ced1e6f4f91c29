package livefeed

// Broadcaster emite un evento con nombre a todos los suscriptores conectados.
// Best-effort: sin persistencia ni replay para clientes que se conectan después.
type Broadcaster interface {
	Broadcast(event string, payload any) error
}
