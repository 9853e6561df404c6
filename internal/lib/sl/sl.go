// Package sl содержит помощники для структурированных полей slog,
// общие для сервисов и HTTP-обработчиков.
package sl

import "log/slog"

// Err оборачивает ошибку в slog.Attr с ключом "error", чтобы записи
// об ошибках выглядели одинаково во всех логах приложения.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
