// Package domain contains the entities shared by the dataset builder, the
// training engine, the artifact store and the API: labeled records, datasets,
// evaluation reports, persisted artifacts and background training runs. They
// carry no infrastructure concerns.
package domain
