package aura

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/rony4d/go-opera-aura/utils/hexjson"
	"github.com/rony4d/go-opera-aura/utils/strictjson"
)

// Discriminator keys of a validator set object.
const (
	validatorsList         = "list"
	validatorsContract     = "contract"
	validatorsSafeContract = "safeContract"
	validatorsMulti        = "multi"

	typeValidatorSet = "ValidatorSet"
)

var validatorSetKeys = []string{validatorsList, validatorsContract, validatorsSafeContract, validatorsMulti}

// ValidatorSet describes how the block authors are determined. It is one of
// ListValidators, ContractValidators, SafeContractValidators or MultiValidators.
type ValidatorSet interface {
	// Kind returns the discriminator key the set was declared with.
	Kind() string

	isValidatorSet()
}

// ListValidators is a fixed list of authorities. Order is significant: it is
// the rotation order of step-based author selection.
type ListValidators struct {
	addrs []common.Address
}

// NewListValidators copies addrs into a list validator set.
func NewListValidators(addrs ...common.Address) ListValidators {
	return ListValidators{addrs: append([]common.Address{}, addrs...)}
}

func (ListValidators) Kind() string { return validatorsList }
func (ListValidators) isValidatorSet() {}

// Addresses returns a copy of the authorities in declaration order.
func (v ListValidators) Addresses() []common.Address {
	return append([]common.Address{}, v.addrs...)
}

// Len returns the number of authorities.
func (v ListValidators) Len() int {
	return len(v.addrs)
}

// ContractValidators delegates the validator set to a contract that also
// accepts misbehaviour reports.
type ContractValidators struct {
	Address common.Address
}

func (ContractValidators) Kind() string { return validatorsContract }
func (ContractValidators) isValidatorSet() {}

// SafeContractValidators delegates the validator set to a contract without reporting.
type SafeContractValidators struct {
	Address common.Address
}

func (SafeContractValidators) Kind() string { return validatorsSafeContract }
func (SafeContractValidators) isValidatorSet() {}

// ValidatorTransition activates Set from block Height onwards.
type ValidatorTransition struct {
	Height hexjson.Uint
	Set    ValidatorSet
}

// MultiValidators switches between validator sets at given block heights.
type MultiValidators struct {
	transitions []ValidatorTransition
}

// NewMultiValidators sorts the transitions by height. Two transitions at the
// same height make the schedule ambiguous and are rejected.
func NewMultiValidators(transitions ...ValidatorTransition) (MultiValidators, error) {
	sorted := append([]ValidatorTransition{}, transitions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Height.Cmp(sorted[j].Height) < 0
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Height == sorted[i-1].Height {
			return MultiValidators{}, errors.Wrapf(ErrDuplicateScheduleKey, "height %s", sorted[i].Height)
		}
	}
	return MultiValidators{transitions: sorted}, nil
}

func (MultiValidators) Kind() string { return validatorsMulti }
func (MultiValidators) isValidatorSet() {}

// Transitions returns the schedule in ascending height order.
func (v MultiValidators) Transitions() []ValidatorTransition {
	return append([]ValidatorTransition{}, v.transitions...)
}

// At returns the validator set in force at block n, or false if the first
// transition lies after n.
func (v MultiValidators) At(n idx.Block) (ValidatorSet, bool) {
	block := hexjson.NewUint(uint64(n))
	i := sort.Search(len(v.transitions), func(i int) bool {
		return v.transitions[i].Height.Cmp(block) > 0
	})
	if i == 0 {
		return nil, false
	}
	return v.transitions[i-1].Set, true
}

// decodeValidatorSet selects the variant by its single discriminator key.
func decodeValidatorSet(raw json.RawMessage) (ValidatorSet, error) {
	obj, err := strictjson.Parse(raw, typeValidatorSet)
	if err != nil {
		return nil, err
	}

	var present []string
	for _, key := range validatorSetKeys {
		if _, ok := obj.Take(key); ok {
			present = append(present, key)
		}
	}
	if err := obj.Finish(); err != nil {
		return nil, err
	}
	switch len(present) {
	case 0:
		return nil, errors.Wrapf(ErrNoMatchingVariant, "%s needs one of %s", typeValidatorSet, strings.Join(validatorSetKeys, ", "))
	case 1:
	default:
		sort.Strings(present)
		return nil, errors.Wrapf(ErrAmbiguousVariant, "%s has %s", typeValidatorSet, strings.Join(present, ", "))
	}

	key := present[0]
	value, _ := obj.Take(key)
	switch key {
	case validatorsList:
		set, err := decodeValidatorList(value)
		if err != nil {
			return nil, at(key, err)
		}
		return set, nil
	case validatorsContract, validatorsSafeContract:
		addr, err := hexjson.DecodeAddress(value)
		if err != nil {
			return nil, at(key, err)
		}
		if key == validatorsContract {
			return ContractValidators{Address: addr}, nil
		}
		return SafeContractValidators{Address: addr}, nil
	default:
		set, err := decodeMultiValidators(value)
		if err != nil {
			return nil, at(key, err)
		}
		return set, nil
	}
}

func decodeValidatorList(raw json.RawMessage) (ValidatorSet, error) {
	items, err := strictjson.Array(raw, "validator list")
	if err != nil {
		return nil, err
	}
	addrs := make([]common.Address, len(items))
	for i, item := range items {
		if addrs[i], err = hexjson.DecodeAddress(item); err != nil {
			return nil, at(fmt.Sprintf("[%d]", i), err)
		}
	}
	return ListValidators{addrs: addrs}, nil
}

func decodeMultiValidators(raw json.RawMessage) (ValidatorSet, error) {
	obj, err := strictjson.Parse(raw, "validator schedule")
	if err != nil {
		return nil, err
	}
	entries := obj.TakeAll()
	transitions := make([]ValidatorTransition, len(entries))
	for i, e := range entries {
		height, err := hexjson.ParseUint(e.Key)
		if err != nil {
			return nil, at(e.Key, err)
		}
		set, err := decodeValidatorSet(e.Value)
		if err != nil {
			return nil, at(e.Key, err)
		}
		transitions[i] = ValidatorTransition{Height: height, Set: set}
	}
	multi, err := NewMultiValidators(transitions...)
	if err != nil {
		return nil, err
	}
	return multi, nil
}
