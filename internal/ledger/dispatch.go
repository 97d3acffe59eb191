package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/quaestor-io/quaestor/internal/state"
)

// Dispatch routes one named operation onto the ledger: string
// arguments in, JSON bytes out. It is the boundary the CLI, the HTTP
// API, and scenario replay all go through, so every surface agrees on
// operation names, argument order, and result shapes.
//
// Write operations return the record they wrote; DeploymentExists
// returns a JSON boolean and StateDigest a JSON string.
func (l *Ledger) Dispatch(tx TxContext, kv state.KV, op string, args []string) ([]byte, error) {
	switch op {
	case "InitLedger":
		if err := arity(op, args, 0); err != nil {
			return nil, err
		}
		entry, err := l.InitLedger(tx, kv)
		if err != nil {
			return nil, err
		}
		return marshalResult(op, entry)

	case "CreateDeployment":
		if err := arity(op, args, 4); err != nil {
			return nil, err
		}
		dep, err := l.CreateDeployment(tx, kv, args[0], args[1], args[2], args[3])
		if err != nil {
			return nil, err
		}
		return marshalResult(op, dep)

	case "ReadDeployment":
		if err := arity(op, args, 1); err != nil {
			return nil, err
		}
		dep, err := l.ReadDeployment(kv, args[0])
		if err != nil {
			return nil, err
		}
		return marshalResult(op, dep)

	case "DeploymentExists":
		if err := arity(op, args, 1); err != nil {
			return nil, err
		}
		exists, err := l.DeploymentExists(kv, args[0])
		if err != nil {
			return nil, err
		}
		return marshalResult(op, exists)

	case "Revoke":
		if err := arity(op, args, 3); err != nil {
			return nil, err
		}
		rev, err := l.Revoke(tx, kv, args[0], args[1], args[2])
		if err != nil {
			return nil, err
		}
		return marshalResult(op, rev)

	case "AppendLog":
		if err := arity(op, args, 4); err != nil {
			return nil, err
		}
		entry, err := l.AppendLog(kv, args[0], args[1], args[2], args[3])
		if err != nil {
			return nil, err
		}
		return marshalResult(op, entry)

	case "ReadLog":
		if err := arity(op, args, 1); err != nil {
			return nil, err
		}
		entry, err := l.ReadLog(kv, args[0])
		if err != nil {
			return nil, err
		}
		return marshalResult(op, entry)

	case "GetAllDeployments":
		if err := arity(op, args, 0); err != nil {
			return nil, err
		}
		deps, err := l.ListAllDeployments(kv)
		if err != nil {
			return nil, err
		}
		return marshalResult(op, deps)

	case "GetAllRevocations":
		if err := arity(op, args, 0); err != nil {
			return nil, err
		}
		revs, err := l.ListAllRevocations(kv)
		if err != nil {
			return nil, err
		}
		return marshalResult(op, revs)

	case "GetAllLogs":
		if err := arity(op, args, 0); err != nil {
			return nil, err
		}
		entries, err := l.ListAllLogs(kv)
		if err != nil {
			return nil, err
		}
		return marshalResult(op, entries)

	case "StateDigest":
		if err := arity(op, args, 0); err != nil {
			return nil, err
		}
		digest, err := l.StateDigest(kv)
		if err != nil {
			return nil, err
		}
		return marshalResult(op, digest)

	default:
		return nil, NewInvalidArgument("Dispatch", fmt.Sprintf("unknown operation %q", op))
	}
}

func arity(op string, args []string, want int) error {
	if len(args) != want {
		return NewInvalidArgument(op,
			fmt.Sprintf("%s expects %d argument(s), got %d", op, want, len(args)))
	}
	return nil
}

func marshalResult(op string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, NewInternal(op, err.Error())
	}
	return data, nil
}
