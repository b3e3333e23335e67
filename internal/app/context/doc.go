// Package context holds request-scope state and the container that
// activates and tears it down.
//
// A Container is bound to every inbound request with WithContainer. Guarded
// operations activate it on entry when no scope is bound yet and terminate it
// when their result settles. While a scope is active, code reached from the
// request finds it with FromContext:
//
//	rc := appctx.FromContext(ctx)
//	model, err := rc.GetOrFetch(ctx, "model:"+id, func(ctx context.Context) (any, error) {
//	    return repo.Get(ctx, id)
//	})
//
// Writes can be staged and committed together; anything still staged when
// the scope terminates is discarded:
//
//	_ = rc.AddAction(&saveModelAction{...})
//	if err := rc.Commit(ctx); err != nil {
//	    // executed actions were rolled back
//	}
//
// Resources tied to the scope register cleanup with OnTerminate.
package context
