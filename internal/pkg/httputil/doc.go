// Package httputil writes the JSON envelopes and downloads the API handlers
// return, and decodes their request bodies.
package httputil
