package models

import (
	"errors"
	"time"
)

type VehicleKind string

const (
	VehicleMotorcycle VehicleKind = "Moto"
	VehicleBicycle    VehicleKind = "Bicicleta"
	VehicleCar        VehicleKind = "Carro"
	VehicleOther      VehicleKind = "Otro"
)

func (k VehicleKind) Valid() bool {
	switch k {
	case VehicleMotorcycle, VehicleBicycle, VehicleCar, VehicleOther:
		return true
	}
	return false
}

// Vehicle is the courier's registered ride. The plate is mandatory for
// anything motorized.
type Vehicle struct {
	Kind  VehicleKind `json:"tipo"`
	Brand string      `json:"marca"`
	Model string      `json:"modelo"`
	Plate string      `json:"placa"`
	Color string      `json:"color"`
}

var (
	ErrVehicleBadKind      = errors.New("tipo de vehículo inválido")
	ErrVehiclePlateMissing = errors.New("la placa es obligatoria salvo para bicicletas")
)

func (v *Vehicle) Validate() error {
	if !v.Kind.Valid() {
		return ErrVehicleBadKind
	}
	if v.Kind != VehicleBicycle && v.Plate == "" {
		return ErrVehiclePlateMissing
	}
	return nil
}

// CourierStatus is the courier's operational state. It changes from the
// courier's own flow, never from the admin form.
type CourierStatus string

const (
	CourierAvailable CourierStatus = "Activo"
	CourierOffline   CourierStatus = "Inactivo"
	CourierEnRoute   CourierStatus = "En-Ruta"
	CourierResting   CourierStatus = "Descansando"
)

type Courier struct {
	ID           uint          `gorm:"primaryKey;autoIncrement"                  json:"id"`
	Name         string        `gorm:"column:nombre;not null"                    json:"nombre"`
	LastName     string        `gorm:"column:apellido;not null"                  json:"apellido"`
	NationalID   string        `gorm:"column:cedula;unique;not null"             json:"cedula"`
	Phone        string        `gorm:"column:telefono;unique;not null"           json:"telefono"`
	Email        string        `gorm:"unique;not null"                           json:"email"`
	PasswordHash string        `gorm:"not null"                                  json:"-"`
	Region       Region        `gorm:"column:estado;not null"                    json:"estado"`
	Address      string        `gorm:"column:direccion;not null"                 json:"direccion"`
	BirthDate    time.Time     `gorm:"column:fecha_nacimiento;not null"          json:"fecha_nacimiento"`
	Vehicle      Vehicle       `gorm:"column:vehiculo;serializer:json"           json:"vehiculo"`
	Status       CourierStatus `gorm:"column:estado_operativo;default:Inactivo"  json:"estado_operativo"`
	Longitude    float64       `gorm:"column:longitud"                           json:"longitud"`
	Latitude     float64       `gorm:"column:latitud"                            json:"latitud"`
	Active       bool          `gorm:"column:activo;default:false"               json:"activo"`
	Rating       float64       `gorm:"column:calificacion_promedio;default:5"    json:"calificacion_promedio"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
