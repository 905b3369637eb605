package repository

// ModelRepository supplies the scoring artifact at process start.
type ModelRepository interface {
	Load() (*LogisticModel, error)
}
