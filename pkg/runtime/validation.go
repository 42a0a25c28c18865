package runtime

import (
	"fmt"

	"dass/pkg/runtime/constant"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

type ValidateNameFunc func(name string) error

func Validate(name string, nameFn ValidateNameFunc) field.ErrorList {
	return ValidateObjectMeta(name, nameFn)
}

func ValidateObjectMeta(name string, nameFn ValidateNameFunc) field.ErrorList {
	var allErrs field.ErrorList
	if len(name) == 0 {
		allErrs = append(allErrs, field.Required(field.NewPath("name"), ""))
	} else if err := nameFn(name); err != nil {
		allErrs = append(allErrs, field.Invalid(field.NewPath("name"), name, err.Error()))
	}
	return allErrs
}

// ValidateBindings checks every scan plan entry against the address
// model: slave identifiers are limited to [1, 4], the decode type must
// be one this pipeline knows how to reconstruct, and the read sized to
// the type must stay inside the 16-bit register address space.
func ValidateBindings(bindings []Binding) field.ErrorList {
	var allErrs field.ErrorList
	for i, b := range bindings {
		path := field.NewPath("bindings").Index(i)
		if len(b.Name) == 0 {
			allErrs = append(allErrs, field.Required(path.Child("name"), ""))
		}
		if b.SlaveID < constant.MinSlaveID || b.SlaveID > constant.MaxSlaveID {
			allErrs = append(allErrs, field.Invalid(path.Child("slaveId"), b.SlaveID,
				fmt.Sprintf("must be between %d and %d", constant.MinSlaveID, constant.MaxSlaveID)))
		}
		words, ok := constant.DataTypeWord[b.DataType]
		if !ok {
			allErrs = append(allErrs, field.Invalid(path.Child("dataType"), b.DataType, "unsupported data type"))
			continue
		}
		if uint(b.Address)+words > 1<<16 {
			allErrs = append(allErrs, field.Invalid(path.Child("address"), b.Address, "read exceeds register address space"))
		}
	}
	return allErrs
}
