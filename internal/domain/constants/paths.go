package constants

// 파일 권한
const (
	// RunningFilePermission은 running configuration과 그 백업 파일의 권한입니다
	RunningFilePermission = 0600

	// DescriptorFilePermission은 --out-file로 저장하는 디스크립터 파일의 권한입니다
	DescriptorFilePermission = 0644

	// DirPermission은 상위 디렉토리를 만들 때의 권한입니다
	DirPermission = 0755
)

// RunningBackupName은 running configuration 백업 파일 이름의 접두어입니다
const RunningBackupName = "running"
