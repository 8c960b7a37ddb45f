package tracker

// OutputBoundary receives the outcome of a use case. Exactly one of its
// methods is called per invocation.
type OutputBoundary[T any] interface {
	SuccessView(T)
	FailView(message string)
}

// Present routes a use-case result to out and returns err unchanged, so
// callers can still pick an exit code or status from it.
func Present[T any](out OutputBoundary[T], value T, err error) error {
	if err != nil {
		out.FailView(err.Error())
		return err
	}
	out.SuccessView(value)
	return nil
}

// Presenter adapts a pair of functions to OutputBoundary.
type Presenter[T any] struct {
	Success func(T)
	Fail    func(string)
}

// SuccessView calls p.Success when it is set.
func (p Presenter[T]) SuccessView(value T) {
	if p.Success != nil {
		p.Success(value)
	}
}

// FailView calls p.Fail when it is set.
func (p Presenter[T]) FailView(message string) {
	if p.Fail != nil {
		p.Fail(message)
	}
}
