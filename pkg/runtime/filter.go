package runtime

import (
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"k8s.io/klog/v2"
)

type lessObjectFunc func(o1, o2 Object) bool

type objectSorter struct {
	os        []Object
	lessFuncs []lessObjectFunc
}

func ByObject(less ...lessObjectFunc) *objectSorter {
	return &objectSorter{
		lessFuncs: less,
	}
}

func (ms *objectSorter) Sort(os []Object) {
	ms.os = os
	sort.Sort(ms)
}

func (ms *objectSorter) Len() int {
	return len(ms.os)
}

func (ms *objectSorter) Swap(i, j int) {
	ms.os[i], ms.os[j] = ms.os[j], ms.os[i]
}

func (ms *objectSorter) Less(i, j int) bool {
	return ms.less(ms.os[i], ms.os[j])
}

func (ms *objectSorter) less(p, q Object) bool {
	// Try all but the last comparison.
	var k int
	for k = 0; k < len(ms.lessFuncs)-1; k++ {
		less := ms.lessFuncs[k]
		switch {
		case less(p, q):
			return true
		case less(q, p):
			return false
		}
	}
	return ms.lessFuncs[k](p, q)
}

func (ms *objectSorter) Insert(os []Object, o Object) []Object {
	i := sort.Search(len(os), func(i int) bool { return ms.less(os[i], o) })
	os = append(os, o)
	copy(os[i+1:], os[i:])
	os[i] = o
	return os
}

type NameFilterFunc struct {
	Eq         string
	In         []string
	Contains   string
	StartsWith string
	EndsWith   string
}

type ProfileFilter struct {
	Name interface{}
	Id   string
}

type predicateObject func(o Object) bool

func ParseProfileFilter(filter *ProfileFilter) []predicateObject {
	predicates := make([]predicateObject, 0)

	// id
	if len(filter.Id) > 0 {
		p := func(o Object) bool {
			return filter.Id == o.GetID()
		}
		predicates = append(predicates, p)
	}

	// name
	if filter.Name != nil {
		if name, ok := filter.Name.(string); ok {
			p := func(o Object) bool {
				return name == o.GetName()
			}
			predicates = append(predicates, p)
		} else {
			var ff NameFilterFunc
			if err := mapstructure.Decode(filter.Name, &ff); err != nil {
				klog.V(3).InfoS("Failed to parse filter.name", "err", err)
			}
			// eq
			if len(ff.Eq) > 0 {
				p := func(o Object) bool {
					return ff.Eq == o.GetName()
				}
				predicates = append(predicates, p)
			}
			// in
			if len(ff.In) > 0 {
				p := func(o Object) bool {
					for _, name := range ff.In {
						if name == o.GetName() {
							return true
						}
					}
					return false
				}
				predicates = append(predicates, p)
			}
			// contains
			if len(ff.Contains) > 0 {
				p := func(o Object) bool {
					return strings.Contains(o.GetName(), ff.Contains)
				}
				predicates = append(predicates, p)
			}
			// startsWith
			if len(ff.StartsWith) > 0 {
				p := func(o Object) bool {
					return strings.HasPrefix(o.GetName(), strings.TrimSpace(ff.StartsWith))
				}
				predicates = append(predicates, p)
			}
			// endsWith
			if len(ff.EndsWith) > 0 {
				p := func(o Object) bool {
					return strings.HasSuffix(o.GetName(), strings.TrimSpace(ff.EndsWith))
				}
				predicates = append(predicates, p)
			}
		}
	}

	return predicates
}
