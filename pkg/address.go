package pkg

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

func ValidateEVMAddress(address string) error {
	if !common.IsHexAddress(address) {
		return fmt.Errorf("invalid EVM address %q", address)
	}

	return nil
}
