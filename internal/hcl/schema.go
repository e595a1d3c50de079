package hcl

// fileRoot is the top-level schema of a launcher file.
type fileRoot struct {
	Directories []string          `hcl:"directories,optional"`
	LogDir      *string           `hcl:"log_dir,optional"`
	Interpreter *interpreterBlock `hcl:"interpreter,block"`
	Install     *installBlock     `hcl:"install,block"`
	Services    []*serviceBlock   `hcl:"service,block"`
	Readiness   *readinessBlock   `hcl:"readiness,block"`
	External    *externalBlock    `hcl:"external,block"`
	Check       *checkBlock       `hcl:"check,block"`
	Ports       []*portBlock      `hcl:"port,block"`
}

type interpreterBlock struct {
	Command     *string  `hcl:"command,optional"`
	VersionArgs []string `hcl:"version_args,optional"`
	MinVersion  *string  `hcl:"min_version,optional"`
}

type installBlock struct {
	Args     []string `hcl:"args,optional"`
	Packages []string `hcl:"packages,optional"`
	Skip     *bool    `hcl:"skip,optional"`
	Timeout  *string  `hcl:"timeout,optional"`
}

type serviceBlock struct {
	Key        string   `hcl:"key,label"`
	Name       *string  `hcl:"name,optional"`
	Title      *string  `hcl:"title,optional"`
	Entry      *string  `hcl:"entry,optional"`
	Args       []string `hcl:"args,optional"`
	Host       *string  `hcl:"host,optional"`
	Port       *int     `hcl:"port,optional"`
	HealthPath *string  `hcl:"health_path,optional"`
	Env        []string `hcl:"env,optional"`
}

type readinessBlock struct {
	Mode            *string `hcl:"mode,optional"`
	Delay           *string `hcl:"delay,optional"`
	InitialInterval *string `hcl:"initial_interval,optional"`
	MaxInterval     *string `hcl:"max_interval,optional"`
	Timeout         *string `hcl:"timeout,optional"`
	MaxAttempts     *int    `hcl:"max_attempts,optional"`
}

type externalBlock struct {
	LiveTalkingPath *string `hcl:"livetalking_path,optional"`
	CosyVoiceURL    *string `hcl:"cosyvoice_url,optional"`
	FFmpeg          *string `hcl:"ffmpeg,optional"`
}

type checkBlock struct {
	Modules      []string `hcl:"modules,optional"`
	ProjectFiles []string `hcl:"project_files,optional"`
	Timeout      *string  `hcl:"timeout,optional"`
}

type portBlock struct {
	Port    int    `hcl:"port"`
	Service string `hcl:"service,optional"`
}
