// Package domain contains the core entities of post generation: the request a
// user submits, the post the text model produces, the cover that accompanies
// it and the progress state reported while both are being produced. It is
// independent of any provider or delivery mechanism.
package domain
