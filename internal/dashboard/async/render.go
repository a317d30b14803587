package async

// Render invokes success with both payloads when c is Loaded, and loader
// with the aggregate state and error otherwise. success never sees partial
// data.
func Render[A, B, T any](c Combined[A, B], success func(A, B) T, loader func(LoadingState, error) T) T {
	if c.State != Loaded {
		return loader(c.State, c.Err)
	}
	return success(c.Data.First, c.Data.Second)
}
