// Package bsale is a client for the Bsale REST API.
//
// A Client holds one service per resource, all sharing a single Engine:
//
//	client, err := bsale.New(bsale.Credentials{
//		AccessToken: os.Getenv("BSALE_ACCESS_TOKEN"),
//		ExpiresAt:   expiry,
//	})
//	if err != nil {
//		return err
//	}
//
//	page, err := client.Products.List(ctx, &bsale.ListProductsParams{
//		Pagination: bsale.Pagination{Limit: 50},
//		State:      bsale.Ptr(bsale.StateActive),
//	})
//
// # Errors
//
// Every failure is an *Error with a Kind. Expired credentials are rejected
// before any request is sent.
//
//	var apiErr *bsale.Error
//	if errors.As(err, &apiErr) && apiErr.Kind == bsale.KindRateLimit {
//		time.Sleep(apiErr.RetryAfter)
//	}
//
// The retry package re-runs an operation with exponential backoff; pair it
// with IsRetryable to only retry rate limit and network failures.
//
// # Credentials
//
// The client does not refresh tokens. Obtain new credentials out of band and
// install them with Client.UpdateCredentials; requests already in flight are
// unaffected.
package bsale
