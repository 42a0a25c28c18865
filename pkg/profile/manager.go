package profile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"dass/pkg/acquisition"
	"dass/pkg/apis"
	"dass/pkg/channel"
	"dass/pkg/generic"
	"dass/pkg/journal"
	"dass/pkg/runtime"
	"dass/pkg/utils/randutil"
	"dass/pkg/utils/uuidutil"
	v1 "dass/pkg/v1"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/klog/v2"
)

// Manager keeps all stored profiles in memory and mirrors every change
// to the fs store. Applying a profile pushes its channel settings and
// scan plan into the acquisition session; it never touches the
// physical connection.
type Manager struct {
	profiles *sync.Map
	store    *generic.Store
	session  *acquisition.Manager
	journal  *journal.Journal
}

func NewManager(store *generic.Store, session *acquisition.Manager, j *journal.Journal) *Manager {
	return &Manager{
		profiles: &sync.Map{},
		store:    store,
		session:  session,
		journal:  j,
	}
}

func (m *Manager) Init() {
	objects, _ := m.store.LoadResource()
	for _, object := range objects {
		p, ok := object.(*Profile)
		if !ok {
			continue
		}
		m.profiles.Store(p.ID, p)
	}
}

func (m *Manager) CreateProfile(obj *v1.Profile) (*Profile, error) {
	if err := validate(obj); err != nil {
		klog.V(2).InfoS("Failed to validate profile", "error", err)
		return nil, err
	}

	p := fromRequest(obj)
	created, err := m.store.Create(p)
	if err != nil {
		klog.V(2).InfoS("Failed to store profile", "error", err)
		return nil, err
	}
	rp := created.(*Profile)
	m.profiles.Store(rp.ID, rp)
	return rp, nil
}

func (m *Manager) DeleteProfile(id string, version string) (*Profile, error) {
	p, err := m.GetProfileById(id)
	if err != nil {
		return nil, err
	}
	if p.Version != version {
		return nil, apis.ErrMismatch
	}

	if _, err := m.store.Delete(p); err != nil {
		klog.V(2).InfoS("Failed to delete profile", "profileId", id)
	}
	m.profiles.Delete(id)
	klog.V(2).InfoS("Deleted profile", "profileId", id)
	return p, nil
}

func (m *Manager) UpdateProfileById(id string, version string, obj *v1.Profile) (*Profile, error) {
	p, err := m.GetProfileById(id)
	if err != nil {
		return nil, err
	}
	if version != p.Version {
		return nil, apis.ErrMismatch
	}
	if err := validate(obj); err != nil {
		klog.V(2).InfoS("Failed to validate profile", "error", err)
		return nil, err
	}

	updated := &Profile{
		ObjectMeta: runtime.ObjectMeta{
			Name:    obj.Name,
			ID:      p.ID,
			Version: p.Version,
			ModTime: p.ModTime,
		},
		TransportType: obj.TransportType,
		Endpoint:      obj.Endpoint,
		BaudRate:      obj.BaudRate,
		Channels:      toChannelSettings(obj.Channels),
		Bindings:      toBindings(obj.Bindings),
	}

	stored, err := m.store.Update(updated)
	if err != nil {
		klog.V(2).InfoS("Failed to update profile", "error", err)
		return nil, err
	}
	rp := stored.(*Profile)
	m.profiles.Store(rp.ID, rp)
	return rp, nil
}

func (m *Manager) GetProfileById(id string) (*Profile, error) {
	v, exists := m.profiles.Load(id)
	if !exists {
		return nil, os.ErrNotExist
	}
	return v.(*Profile), nil
}

func (m *Manager) ListProfiles(filter *runtime.ProfileFilter, exploded bool) []*Profile {
	predicates := runtime.ParseProfileFilter(filter)

	// descend
	byModTime := func(o1, o2 runtime.Object) bool { return o1.GetModTime().Before(o2.GetModTime()) }
	sorter := runtime.ByObject(byModTime)

	objects := make([]runtime.Object, 0)
	m.profiles.Range(func(key, value interface{}) bool {
		isMatch := true
		p := value.(*Profile)
		for _, predicate := range predicates {
			if !predicate(p) {
				isMatch = false
				break
			}
		}
		if isMatch {
			objects = sorter.Insert(objects, p)
		}
		return true
	})

	profiles := make([]*Profile, 0, len(objects))
	for _, o := range objects {
		p := o.(*Profile)
		if !exploded {
			p = m.foldProfile(p)
		}
		profiles = append(profiles, p)
	}
	return profiles
}

// ApplyProfile pushes the profile into the session: scan plan first,
// then channel settings, so a plan rejected while running leaves the
// channels untouched.
func (m *Manager) ApplyProfile(id string) (*Profile, error) {
	p, err := m.GetProfileById(id)
	if err != nil {
		return nil, err
	}

	if len(p.Bindings) > 0 {
		if err := m.session.SetScanPlan(p.Bindings); err != nil {
			return nil, err
		}
	}
	if len(p.Channels) > 0 {
		m.session.ApplyChannels(p.Channels)
	}

	m.journal.Record(journal.KindProfileApply, "", p.Name)
	klog.V(1).InfoS("Applied profile", "profileId", p.ID, "name", p.Name)
	return p, nil
}

func (m *Manager) foldProfile(p *Profile) *Profile {
	return &Profile{
		ObjectMeta: runtime.ObjectMeta{
			Name:    p.Name,
			ID:      p.ID,
			Version: p.Version,
			ModTime: p.ModTime,
		},
		TransportType: p.TransportType,
		Endpoint:      p.Endpoint,
		BaudRate:      p.BaudRate,
	}
}

func validate(obj *v1.Profile) error {
	allErrs := runtime.Validate(obj.Name, profileNameFn)
	if _, ok := generic.TransportTypeMap[obj.TransportType]; !ok {
		allErrs = append(allErrs, field.Invalid(field.NewPath("transportType"), obj.TransportType, "unsupported transport type"))
	}
	if obj.BaudRate <= 0 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("baudRate"), obj.BaudRate, "must be positive"))
	}
	allErrs = append(allErrs, runtime.ValidateBindings(toBindings(obj.Bindings))...)
	if len(allErrs) > 0 {
		return allErrs.ToAggregate()
	}
	return nil
}

func profileNameFn(name string) error {
	if strings.ContainsAny(name, `/"`) {
		return fmt.Errorf("must not contain '/' or '\"'")
	}
	return nil
}

func fromRequest(obj *v1.Profile) *Profile {
	return &Profile{
		ObjectMeta: runtime.ObjectMeta{
			Name:    obj.Name,
			ID:      uuidutil.UUID(),
			Version: strconv.FormatUint(randutil.Uint64n(), 10),
			ModTime: time.Now(),
		},
		TransportType: obj.TransportType,
		Endpoint:      obj.Endpoint,
		BaudRate:      obj.BaudRate,
		Channels:      toChannelSettings(obj.Channels),
		Bindings:      toBindings(obj.Bindings),
	}
}

func toChannelSettings(in []*v1.ProfileChannel) []channel.Settings {
	out := make([]channel.Settings, 0, len(in))
	for _, c := range in {
		if c == nil {
			continue
		}
		s := channel.Settings{Name: c.Name, Zero: c.Zero, Multiplier: c.Multiplier, Gain: c.Gain}
		if s.Zero == "" {
			s.Zero = "0"
		}
		if s.Multiplier == "" {
			s.Multiplier = "1"
		}
		if s.Gain == "" {
			s.Gain = "1"
		}
		out = append(out, s)
	}
	return out
}

func toBindings(in []*v1.Binding) []runtime.Binding {
	out := make([]runtime.Binding, 0, len(in))
	for _, b := range in {
		if b == nil {
			continue
		}
		binding := runtime.Binding{
			Name:     b.Name,
			SlaveID:  b.SlaveID,
			DataType: b.DataType,
		}
		if b.Address != nil {
			binding.Address = uint16(*b.Address)
		}
		out = append(out, binding)
	}
	return out
}
