package flags

const Directory = `dir`
const DirectoryShort = `C`
const Config = `config`
const Verbose = `verbose`
const VerboseShort = `v`
const Quiet = `quiet`
const QuietShort = `q`
const Plain = `plain`
const PlainShort = `p`
const Exclude = `exclude`
const ExcludeShort = `x`
const DiscoverAndSave = `save`
const DiscoverWithoutSnapshot = `no-snapshot`
const DocToPathRelative = `relative`
const InitOverwrite = `force`
