package namegen

// 词表取自常见的"形容词-科学家"风格命名习惯，全部小写，
// 只含字母，保证组合结果天然满足本地部分的字符集要求。

var adjectives = []string{
	"agile", "amber", "bold", "brave", "bright", "calm", "clever", "cosmic",
	"crimson", "curious", "dapper", "eager", "fancy", "fearless", "gentle",
	"golden", "happy", "humble", "jolly", "keen", "lively", "lucid", "mellow",
	"merry", "misty", "nimble", "noble", "patient", "plucky", "proud",
	"quiet", "quirky", "rapid", "serene", "sharp", "silent", "snappy",
	"stellar", "sunny", "swift", "tender", "tidy", "vivid", "witty", "zesty",
}

var names = []string{
	"archimedes", "babbage", "banach", "bohr", "boyd", "cartwright", "cori",
	"curie", "darwin", "euclid", "euler", "faraday", "fermat", "feynman",
	"franklin", "galileo", "gauss", "goodall", "hamilton", "hawking",
	"heisenberg", "hopper", "hypatia", "kepler", "lamarr", "laplace",
	"leavitt", "lovelace", "maxwell", "meitner", "mendel", "newton",
	"noether", "pascal", "pasteur", "planck", "ramanujan", "ride",
	"shannon", "somerville", "tesla", "turing", "volta", "wiles", "wozniak",
}
