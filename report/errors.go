package report

import "fmt"

// ArtifactError ошибка записи артефакта выгрузки
type ArtifactError struct {
	Artifact string // snapshot, report, workbook
	Path     string
	Op       string // create, append, encode, save
	Err      error
}

// Error реализует интерфейс error
func (e *ArtifactError) Error() string {
	return fmt.Sprintf("failed to %s %s %s: %v", e.Op, e.Artifact, e.Path, e.Err)
}

// Unwrap возвращает вложенную ошибку для errors.Is и errors.As
func (e *ArtifactError) Unwrap() error {
	return e.Err
}

func artifactError(artifact, path, op string, err error) error {
	return &ArtifactError{Artifact: artifact, Path: path, Op: op, Err: err}
}
