package di

// Token is a typed service key.
type Token[T any] struct {
	key string
}

// NewToken creates a token for services of type T.
func NewToken[T any](key string) Token[T] {
	return Token[T]{key: key}
}

// Key returns the registry key.
func (t Token[T]) Key() string {
	return t.key
}

// RegisterToken registers a lazily built singleton for the token.
func RegisterToken[T any](c Container, t Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(t.key, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves the service behind the token.
func GetToken[T any](sr ServiceRegistry, t Token[T]) T {
	return sr.Get(t.key).(T)
}
