// Package domain contains the order and label design types shared by the export engine,
// the HTTP layer and the CLI. Keep it free of transport and infrastructure concerns.
package domain
