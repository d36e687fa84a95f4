package aura

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/pkg/errors"

	"github.com/rony4d/go-opera-aura/utils/hexjson"
	"github.com/rony4d/go-opera-aura/utils/strictjson"
)

const typeBlockReward = "BlockReward"

// BlockReward is the native-currency reward per block, in wei. It is either a
// SingleReward or a MultiReward, chosen by the JSON shape of the value.
type BlockReward interface {
	// At returns the reward effective at block n. The second result is false
	// when no reward is scheduled yet at n.
	At(n idx.Block) (hexjson.Uint, bool)

	isBlockReward()
}

// SingleReward is a constant reward for every block.
type SingleReward struct {
	Reward hexjson.Uint
}

func (r SingleReward) At(idx.Block) (hexjson.Uint, bool) {
	return r.Reward, true
}

func (SingleReward) isBlockReward() {}

// RewardStep sets the reward from block Height onwards.
type RewardStep struct {
	Height hexjson.Uint
	Reward hexjson.Uint
}

// MultiReward is a reward schedule ordered by ascending height.
type MultiReward struct {
	steps []RewardStep
}

// NewMultiReward sorts steps by height and rejects repeated heights.
func NewMultiReward(steps ...RewardStep) (MultiReward, error) {
	sorted := append([]RewardStep{}, steps...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Height.Cmp(sorted[j].Height) < 0
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Height == sorted[i-1].Height {
			return MultiReward{}, errors.Wrapf(ErrDuplicateScheduleKey, "height %s", sorted[i].Height)
		}
	}
	return MultiReward{steps: sorted}, nil
}

// Steps returns the schedule in ascending height order.
func (r MultiReward) Steps() []RewardStep {
	return append([]RewardStep{}, r.steps...)
}

// Len returns the number of scheduled steps.
func (r MultiReward) Len() int {
	return len(r.steps)
}

func (r MultiReward) At(n idx.Block) (hexjson.Uint, bool) {
	block := hexjson.NewUint(uint64(n))
	i := sort.Search(len(r.steps), func(i int) bool {
		return r.steps[i].Height.Cmp(block) > 0
	})
	if i == 0 {
		return hexjson.Uint{}, false
	}
	return r.steps[i-1].Reward, true
}

func (MultiReward) isBlockReward() {}

// decodeBlockReward treats an object as a schedule and anything else as a scalar.
func decodeBlockReward(raw json.RawMessage) (BlockReward, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		return decodeMultiReward(raw)
	}
	if len(raw) > 0 && (raw[0] == '"' || (raw[0] >= '0' && raw[0] <= '9') || raw[0] == '-') {
		v, err := hexjson.DecodeUint(raw)
		if err != nil {
			return nil, err
		}
		return SingleReward{Reward: v}, nil
	}
	return nil, errors.Wrapf(ErrNoMatchingVariant, "%s expects a number or a height-to-reward object, got %s", typeBlockReward, raw)
}

func decodeMultiReward(raw json.RawMessage) (BlockReward, error) {
	obj, err := strictjson.Parse(raw, typeBlockReward)
	if err != nil {
		return nil, err
	}
	entries := obj.TakeAll()
	steps := make([]RewardStep, len(entries))
	for i, e := range entries {
		height, err := hexjson.ParseUint(e.Key)
		if err != nil {
			return nil, at(e.Key, err)
		}
		reward, err := hexjson.DecodeUint(e.Value)
		if err != nil {
			return nil, at(e.Key, err)
		}
		steps[i] = RewardStep{Height: height, Reward: reward}
	}
	multi, err := NewMultiReward(steps...)
	if err != nil {
		return nil, err
	}
	return multi, nil
}
