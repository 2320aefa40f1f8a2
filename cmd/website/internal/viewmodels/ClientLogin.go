package viewmodels

type ClientLogin struct {
	BaseViewModel

	ClientCode string
}
