package flickr

import "sort"

// The binding table maps object-API methods to the remote procedures they
// invoke. It is built once, from the var blocks in the domain files, while
// the package initializes; nothing registers at call time.
var (
	bindingsByMethod = map[string]string{}
	bindingsByRemote = map[string][]string{}
	remoteNeedsAuth  = map[string]bool{}
)

type remoteMethod struct {
	name      string
	needsAuth bool
}

// bind registers an unauthenticated binding and returns the handle the domain
// method calls with.
func bind(objectMethod, remote string) remoteMethod {
	return register(objectMethod, remote, false)
}

// bindAuth registers a binding whose remote procedure requires signing.
func bindAuth(objectMethod, remote string) remoteMethod {
	return register(objectMethod, remote, true)
}

func register(objectMethod, remote string, needsAuth bool) remoteMethod {
	bindingsByMethod[objectMethod] = remote
	bindingsByRemote[remote] = append(bindingsByRemote[remote], objectMethod)
	if needsAuth {
		remoteNeedsAuth[remote] = true
	}
	return remoteMethod{name: remote, needsAuth: needsAuth}
}

// BindingsTo returns the object-API methods bound to a remote procedure.
//
//	BindingsTo("flickr.people.getPhotos") // -> ["Person.GetPhotos"]
func BindingsTo(remote string) []string {
	out := append([]string(nil), bindingsByRemote[remote]...)
	sort.Strings(out)
	return out
}

// BoundMethods returns every registered object-API method, sorted.
func BoundMethods() []string {
	out := make([]string, 0, len(bindingsByMethod))
	for m := range bindingsByMethod {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// RemoteFor returns the remote procedure an object-API method is bound to.
func RemoteFor(objectMethod string) (string, bool) {
	r, ok := bindingsByMethod[objectMethod]
	return r, ok
}
