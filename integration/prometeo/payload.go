package prometeo

import (
	"github.com/dmitrymomot/bankchat/core/banking"
)

// dateLayout is the dd/mm/yyyy format of movement date filters.
const dateLayout = "02/01/2006"

type providerDetail struct {
	// Name is the provider code in the detail payload.
	Name       string              `json:"name"`
	Country    string              `json:"country"`
	Logo       string              `json:"logo"`
	AuthFields []banking.AuthField `json:"auth_fields"`
	Bank       struct {
		Code string `json:"code"`
		Name string `json:"name"`
		Logo string `json:"logo"`
	} `json:"bank"`
}

func (p providerDetail) provider(code string) banking.Provider {
	out := banking.Provider{
		Code:       p.Name,
		Name:       p.Bank.Name,
		Country:    p.Country,
		Logo:       p.Logo,
		AuthFields: p.AuthFields,
	}
	if out.Code == "" {
		out.Code = code
	}
	if out.Name == "" {
		out.Name = out.Code
	}
	if out.Logo == "" {
		out.Logo = p.Bank.Logo
	}
	return out
}
