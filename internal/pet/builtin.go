package pet

// builtinArt is drawn when no asset directory is configured.
var builtinArt = map[string][]string{
	"normal": {
		`  /\_/\  `,
		` ( o.o ) `,
		`  > ^ <  `,
		` /     \ `,
		`(_______)~`,
	},
	"happy": {
		`  /\_/\  `,
		` ( ^.^ ) `,
		`  > v <  `,
		` / \ / \ `,
		`(_______)~~`,
	},
	"curious": {
		`  /\_/\  ?`,
		` ( O.o ) `,
		`  > - <  `,
		` /     \ `,
		`(_______)~`,
	},
	"blink": {
		`  /\_/\  `,
		` ( -.- ) `,
		`  > ^ <  `,
		` /     \ `,
		`(_______) ~`,
	},
}

// BuiltinArt returns the built-in frame for name, if there is one.
func BuiltinArt(name string) ([]string, bool) {
	art, ok := builtinArt[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), art...), true
}
