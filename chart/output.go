package chart

import (
	"context"
	"net/url"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// WriteOutput writes data to path, replacing any existing file.
func WriteOutput(ctx context.Context, path string, data []byte) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	if _, err = out.Writer(ctx).Write(data); err != nil {
		return errors.E(err, "write", path)
	}
	return nil
}

// Deliver sends form through r and writes the reply to path.  A failed
// request is logged, not returned: whatever bytes were received, possibly
// none, are written all the same.  Only a failure to write path is an error.
func Deliver(ctx context.Context, r Requester, form url.Values, path string) error {
	data, err := r.Request(ctx, form)
	if err != nil {
		log.Error.Printf("chart: %v; writing %d byte(s) to %s anyway", err, len(data), path)
	}
	if err := WriteOutput(ctx, path, data); err != nil {
		return err
	}
	log.Printf("wrote %s (%d bytes)", path, len(data))
	return nil
}
