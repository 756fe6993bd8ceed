package nppes

import (
	"encoding/json"
	"strconv"
)

// flexInt handles the registry's inconsistent epoch encoding: timestamps come
// back as either strings ("1234567890") or bare integers.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var i int64
	if err := json.Unmarshal(data, &i); err == nil {
		*f = flexInt(i)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}

	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*f = flexInt(i)
	return nil
}

func (f flexInt) Int64() int64 {
	return int64(f)
}

type apiResponse struct {
	ResultCount int           `json:"result_count"`
	Results     []apiProvider `json:"results"`
}

type apiProvider struct {
	Number           string        `json:"number"`
	EnumerationType  string        `json:"enumeration_type"`
	Basic            apiBasicInfo  `json:"basic"`
	Addresses        []apiAddress  `json:"addresses"`
	Taxonomies       []apiTaxonomy `json:"taxonomies"`
	CreatedEpoch     flexInt       `json:"created_epoch"`
	LastUpdatedEpoch flexInt       `json:"last_updated_epoch"`
}

type apiBasicInfo struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	MiddleName      string `json:"middle_name"`
	Credential      string `json:"credential"`
	Gender          string `json:"gender"`
	EnumerationDate string `json:"enumeration_date"`
	LastUpdated     string `json:"last_updated"`
	Status          string `json:"status"`
	NamePrefix      string `json:"name_prefix"`
	NameSuffix      string `json:"name_suffix"`
}

type apiAddress struct {
	CountryCode     string `json:"country_code"`
	AddressPurpose  string `json:"address_purpose"`
	AddressType     string `json:"address_type"`
	Address1        string `json:"address_1"`
	Address2        string `json:"address_2"`
	City            string `json:"city"`
	State           string `json:"state"`
	PostalCode      string `json:"postal_code"`
	TelephoneNumber string `json:"telephone_number"`
}

type apiTaxonomy struct {
	Code          string `json:"code"`
	TaxonomyGroup string `json:"taxonomy_group"`
	Desc          string `json:"desc"`
	State         string `json:"state"`
	License       string `json:"license"`
	Primary       bool   `json:"primary"`
}
