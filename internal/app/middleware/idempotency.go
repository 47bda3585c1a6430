package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"stayhub/internal/app/apperr"
	"stayhub/internal/app/commands"
	"stayhub/internal/app/uow"
)

// IdempotentCommand replays its first outcome when retried with the same
// client key.
type IdempotentCommand interface {
	commands.Command
	IdempotencyKey() string
	// DecodeResult rebuilds a stored payload as the handler's result type;
	// DecodeAs covers the usual case.
	DecodeResult(codec ResultCodec, payload []byte) (any, error)
}

// IdempotencyRecord is one stored outcome: a payload, or a classified error.
type IdempotencyRecord struct {
	Key        string
	Payload    []byte
	ErrorKind  string
	Error      string
	OccurredAt time.Time
}

func (r IdempotencyRecord) failed() bool { return r.ErrorKind != "" || r.Error != "" }

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (IdempotencyRecord, bool, error)
	Save(ctx context.Context, rec IdempotencyRecord) error
}

type ResultCodec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, out any) error
}

type JSONResultCodec struct{}

func (JSONResultCodec) Encode(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONResultCodec) Decode(data []byte, out any) error { return json.Unmarshal(data, out) }

// DecodeAs decodes payload into a fresh R.
func DecodeAs[R any](codec ResultCodec, payload []byte) (any, error) {
	var out R
	if len(payload) == 0 {
		return out, nil
	}
	if err := codec.Decode(payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Idempotency stores the outcome of keyed commands. Keys are scoped by command
// and actor so two users cannot collide on the same client key.
//
// A successful result is recorded inside the unit of work opened from factory,
// so the record commits or rolls back together with the command's writes.
// Domain failures are recorded after the rollback and replayed; backend
// failures stay retryable. A nil factory records without a shared unit.
func Idempotency(store IdempotencyStore, codec ResultCodec, factory uow.UoWFactory) CommandMiddleware {
	if store == nil {
		panic("middleware: idempotency store required")
	}
	if codec == nil {
		codec = JSONResultCodec{}
	}
	inUnit := func(ctx context.Context, fn func(context.Context) error) error {
		if factory == nil {
			return fn(ctx)
		}
		return uow.Run(ctx, factory, uow.TxOptions{}, func(ctx context.Context, _ uow.UnitOfWork) error {
			return fn(ctx)
		})
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			keyed, ok := cmd.(IdempotentCommand)
			if !ok {
				return nextFn(ctx, cmd)
			}
			key := scopedKey(keyed)
			if key == "" {
				return nextFn(ctx, cmd)
			}

			rec, found, err := store.Get(ctx, key)
			if err != nil {
				return nil, apperr.Backend(err)
			}
			if found {
				if rec.failed() {
					return nil, apperr.New(apperr.Kind(rec.ErrorKind), rec.Error)
				}
				return keyed.DecodeResult(codec, rec.Payload)
			}

			var (
				result any
				runErr error
			)
			unitErr := inUnit(ctx, func(ctx context.Context) error {
				if result, runErr = nextFn(ctx, cmd); runErr != nil {
					return runErr
				}
				done := IdempotencyRecord{Key: key, OccurredAt: time.Now().UTC()}
				if result != nil {
					payload, err := codec.Encode(result)
					if err != nil {
						return err
					}
					done.Payload = payload
				}
				if err := store.Save(ctx, done); err != nil {
					return apperr.Backend(err)
				}
				return nil
			})
			if runErr == nil {
				if unitErr != nil {
					return nil, unitErr
				}
				return result, nil
			}
			if apperr.KindOf(runErr) == apperr.KindBackendFailure {
				return nil, runErr
			}
			failed := IdempotencyRecord{
				Key:        key,
				ErrorKind:  string(apperr.KindOf(runErr)),
				Error:      runErr.Error(),
				OccurredAt: time.Now().UTC(),
			}
			if err := store.Save(ctx, failed); err != nil {
				return nil, errors.Join(runErr, err)
			}
			return nil, runErr
		})
	}
}

func scopedKey(cmd IdempotentCommand) string {
	key := strings.TrimSpace(cmd.IdempotencyKey())
	if key == "" {
		return ""
	}
	actor := ""
	if a, ok := cmd.(ActorMessage); ok {
		actor = a.ActorID()
	}
	return strings.Join([]string{cmd.Key(), actor, key}, ":")
}
