package shell

// WithEnviron replaces the environment commands inherit.
func (e *Executor) WithEnviron(environ func() []string) *Executor {
	e.environ = environ
	return e
}
