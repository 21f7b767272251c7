package domain

import "github.com/syssam/persist/schema"

// Person is a user of the shop.
type Person struct {
	schema.Entity `persist:"table=users"`

	ID       *int64 `persist:"id"`
	NickName *string
	Old      *int
	Email    string `persist:"notnull"`
	Index    int    `persist:"-"`
}

// NewPerson returns a transient person.
func NewPerson(nickName string, old int, email string) *Person {
	return &Person{NickName: &nickName, Old: &old, Email: email}
}

// Name returns the nick name, or "" if unset.
func (p *Person) Name() string {
	if p.NickName == nil {
		return ""
	}
	return *p.NickName
}

// SetName sets the nick name.
func (p *Person) SetName(name string) {
	p.NickName = &name
}
