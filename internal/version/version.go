// Package version хранит метаданные сборки, заполняемые через
// -ldflags "-X .../internal/version.version=... -X .../internal/version.commit=...".
package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// String возвращает строку для стартового лога и health-ответа.
func String() string {
	return fmt.Sprintf("order-service %s (commit %s, built %s)", version, commit, date)
}
