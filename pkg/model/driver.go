package model

import (
	"strings"

	"github.com/aarondl/opt/null"
)

type (
	Driver struct {
		DriverID        string `json:"driverId"`
		Code            string `json:"code"`
		FirstName       string `json:"firstName"`
		LastName        string `json:"lastName"`
		Nationality     string `json:"nationality"`
		ConstructorID   string `json:"constructorId"`
		ConstructorName string `json:"constructorName"`
	}

	// DriverInfo holds the display attributes a data provider may attach to a
	// single race result.
	DriverInfo struct {
		Code            string `json:"code,omitempty"`
		FirstName       string `json:"firstName,omitempty"`
		LastName        string `json:"lastName,omitempty"`
		Nationality     string `json:"nationality,omitempty"`
		ConstructorID   string `json:"constructorId,omitempty"`
		ConstructorName string `json:"constructorName,omitempty"`
	}
)

// NewDriver creates a driver from an optional DriverInfo. Missing attributes
// are derived from the driverID.
func NewDriver(driverID string, info null.Val[DriverInfo]) Driver {
	d := Driver{
		DriverID: driverID,
		Code:     fallbackCode(driverID),
		LastName: driverID,
	}
	i, ok := info.Get()
	if !ok {
		return d
	}
	if i.Code != "" {
		d.Code = i.Code
	}
	if i.LastName != "" {
		d.LastName = i.LastName
	}
	d.FirstName = i.FirstName
	d.Nationality = i.Nationality
	d.ConstructorID = i.ConstructorID
	d.ConstructorName = i.ConstructorName
	return d
}

func (d Driver) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

func fallbackCode(driverID string) string {
	code := driverID
	if len(code) > 3 {
		code = code[:3]
	}
	return strings.ToUpper(code)
}
