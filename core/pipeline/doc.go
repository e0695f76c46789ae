// Package pipeline hosts build plugins.
//
// A build reads a file set from a Source (a directory through afero, or an
// object storage prefix), passes it together with an empty metadata tree
// through every registered Plugin in order, and hands the surviving files to
// a Sink. Each build gets a UUID so logs and persisted snapshots can be
// correlated.
//
// # Usage
//
//	mgr := pipeline.NewManager(logg)
//	mgr.Register(data.NewLoader(cfg.Data, logg))
//	src, sink, err := cfg.Build.Endpoints(afero.NewOsFs(), nil, cfg.Storage)
//	result, err := mgr.Build(ctx, src, sink)
package pipeline
