package template

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var funcRegistry = map[string]func(args string) (string, error){
	"uuid":      fnUUID,
	"timestamp": fnTimestamp,
	"random":    fnRandom,
}

// evalFunction evaluates a builtin placeholder such as uuid() or
// random(1,100). Reports handled=false for expressions that are not
// function calls so variable lookup can proceed.
func evalFunction(expr string) (value string, handled bool, err error) {
	parenIdx := strings.Index(expr, "(")
	if parenIdx == -1 || !strings.HasSuffix(expr, ")") {
		return "", false, nil
	}

	name := expr[:parenIdx]
	args := expr[parenIdx+1 : len(expr)-1]

	fn, ok := funcRegistry[name]
	if !ok {
		return "", false, nil
	}

	value, err = fn(args)
	if err != nil {
		return "", true, errors.Wrapf(err, "function %s", name)
	}
	return value, true, nil
}

func fnUUID(args string) (string, error) {
	if args != "" {
		return "", errors.New("uuid() takes no arguments")
	}
	return uuid.NewString(), nil
}

func fnTimestamp(args string) (string, error) {
	if args != "" {
		return "", errors.New("timestamp() takes no arguments")
	}
	return strconv.FormatInt(time.Now().Unix(), 10), nil
}

func fnRandom(args string) (string, error) {
	parts := strings.Split(args, ",")
	if len(parts) != 2 {
		return "", errors.New("random(min,max) takes two arguments")
	}
	min, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return "", errors.Wrap(err, "min")
	}
	max, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", errors.Wrap(err, "max")
	}
	if max < min {
		return "", errors.Errorf("random(%d,%d): max below min", min, max)
	}
	return strconv.Itoa(min + rand.Intn(max-min+1)), nil
}
