// Package server runs an HTTP handler with graceful shutdown.
//
// A Server binds its address when started and serves until the context is
// canceled, then drains in-flight requests within the shutdown timeout.
// Run returns a func suitable for errgroup.Group.Go:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, router))
//	return g.Wait()
//
// TLS is served when SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE are set
// or WithTLS is given.
package server
