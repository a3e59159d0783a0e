package commands

import (
	"fmt"
	"strings"

	"github.com/printcart/printcart-go/internal/constants"
	"github.com/printcart/printcart-go/pkg/printcart"
)

// resolvePath resolves a resource path such as "Product/42/Design/7".
//
// The first segment names a root resource. A segment following a resource
// name is that resource's ID unless it starts with an upper-case letter. Any
// other segment is resolved as a member of the current resource: a child
// resource when upper-case, a custom action otherwise. An action must be the
// last segment.
func resolvePath(client *printcart.Client, path string) (*printcart.Resource, *printcart.Action, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return nil, nil, constants.ErrResourcePathRequired
	}

	for _, segment := range segments {
		if segment == "" {
			return nil, nil, fmt.Errorf("%w: empty segment in %q", constants.ErrInvalidResourcePath, path)
		}
	}

	name, rest := segments[0], segments[1:]
	id, rest := takeID(rest)

	resource, err := client.Resource(name, id...)
	if err != nil {
		return nil, nil, err
	}

	for len(rest) > 0 {
		symbol := rest[0]

		kind, err := printcart.ClassifyMember(symbol)
		if err != nil {
			return nil, nil, err
		}

		if kind == printcart.MemberAction {
			if len(rest) > 1 {
				return nil, nil, fmt.Errorf("%w: action %s must be the last segment", constants.ErrInvalidResourcePath, symbol)
			}

			member, err := resource.Lookup(symbol)
			if err != nil {
				return nil, nil, err
			}

			return resource, member.Action, nil
		}

		id, rest = takeID(rest[1:])

		member, err := resource.Lookup(symbol, id...)
		if err != nil {
			return nil, nil, err
		}

		resource = member.Child
	}

	return resource, nil, nil
}

func takeID(segments []string) ([]string, []string) {
	if len(segments) == 0 || startsUpper(segments[0]) {
		return nil, segments
	}

	return segments[:1], segments[1:]
}

func startsUpper(s string) bool {
	kind, err := printcart.ClassifyMember(s)

	return err == nil && kind == printcart.MemberChild
}
