package profile

import (
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/sets"
)

const Kind = "profile"

var patchTypes = sets.NewString(string(types.JSONPatchType), string(types.MergePatchType))

const maxJSONPatchOperations = 1000
