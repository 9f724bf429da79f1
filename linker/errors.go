package linker

import (
	"github.com/mun-lang/mun/abi"
	"github.com/mun-lang/mun/internal/errs"
)

func errUnresolvedTypeSlot(s *abi.TypeSlot) error {
	return errs.New(errs.UnresolvedType, "unresolved type dependency for slot %q", s.Name)
}
